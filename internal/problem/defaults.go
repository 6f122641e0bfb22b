package problem

import (
	"fmt"
	"strings"
	"time"
)

// defaultSetSize is the number of built-in problems generated per language.
// It matches the minimum viable pool size used by the fetch layer, so a
// fully offline session still has a complete pool to draw from.
const defaultSetSize = 12

// defaultsBase anchors the synthetic creation timestamps of built-in
// problems so newest-first/oldest-first ordering stays deterministic.
var defaultsBase = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

var defaultSnippets = map[string][]string{
	"HTML": {
		`<!DOCTYPE html>`,
		`<html lang="ja">`,
		`<head><meta charset="utf-8"></head>`,
		`<title>practice page</title>`,
		`<body class="main">`,
		`<h1 id="title">Hello</h1>`,
		`<p>typing practice</p>`,
		`<a href="/home">home</a>`,
		`<ul><li>item</li></ul>`,
		`<img src="logo.png" alt="logo">`,
		`<div class="container"></div>`,
		`<input type="text" name="q">`,
	},
	"CSS": {
		`body { margin: 0; }`,
		`.container { display: flex; }`,
		`h1 { font-size: 2rem; }`,
		`a:hover { color: #06c; }`,
		`p { line-height: 1.6; }`,
		`#title { font-weight: bold; }`,
		`.hidden { display: none; }`,
		`ul { list-style: none; }`,
		`img { max-width: 100%; }`,
		`button { cursor: pointer; }`,
		`.card { border-radius: 8px; }`,
		`input:focus { outline: 2px solid; }`,
	},
	"JavaScript": {
		`const total = items.length;`,
		`let count = 0;`,
		`function add(a, b) { return a + b; }`,
		`const names = users.map(u => u.name);`,
		`if (value === null) return;`,
		`for (const item of list) { print(item); }`,
		`const obj = { id: 1, name: "go" };`,
		`await fetch("/api/items");`,
		`console.log("ready");`,
		`export default config;`,
		`const [first] = values;`,
		`try { run(); } catch (e) { report(e); }`,
	},
	"SQL": {
		`SELECT id, name FROM users;`,
		`INSERT INTO logs (message) VALUES ('ok');`,
		`UPDATE items SET price = 100 WHERE id = 1;`,
		`DELETE FROM sessions WHERE expired = 1;`,
		`CREATE TABLE notes (id INTEGER PRIMARY KEY);`,
		`SELECT COUNT(*) FROM orders;`,
		`SELECT * FROM books ORDER BY created_at DESC;`,
		`ALTER TABLE users ADD COLUMN email TEXT;`,
		`SELECT name FROM tags GROUP BY name;`,
		`CREATE INDEX idx_logs_at ON logs(at);`,
		`SELECT a.id FROM a JOIN b ON a.id = b.a_id;`,
		`DROP TABLE IF EXISTS temp_data;`,
	},
}

// genericSnippets backs languages without a dedicated built-in set.
var genericSnippets = []string{
	`practice makes perfect`,
	`the quick brown fox jumps over the lazy dog`,
	`type each character exactly as shown`,
	`accuracy first, speed second`,
	`keep your eyes on the screen`,
	`short daily sessions beat long rare ones`,
	`every keystroke counts`,
	`rhythm matters more than rush`,
	`rest your wrists between rounds`,
	`consistency builds muscle memory`,
	`mistakes are data, not failures`,
	`finish the line before looking down`,
}

// Defaults returns the deterministic built-in problem set for a language.
// Unknown languages fall back to a generic set tagged with that language,
// so every language always has at least defaultSetSize problems.
func Defaults(language string) []Problem {
	snippets, ok := defaultSnippets[language]
	if !ok {
		for name, set := range defaultSnippets {
			if strings.EqualFold(name, language) {
				snippets = set
				ok = true
				break
			}
		}
	}
	if !ok {
		snippets = genericSnippets
	}

	problems := make([]Problem, 0, len(snippets))
	for i, text := range snippets {
		problems = append(problems, Problem{
			ID:          fmt.Sprintf("builtin-%s-%02d", strings.ToLower(language), i+1),
			Language:    language,
			Question:    text,
			Explanation: "built-in practice problem",
			Category:    "builtin",
			Difficulty:  1 + i%3,
			CreatedAt:   defaultsBase.Add(time.Duration(i) * time.Minute),
		})
	}
	return problems
}
