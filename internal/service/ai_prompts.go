package service

import (
	"fmt"
	"sql_practice_backend/internal/model"
)

var difficultyDescriptions = map[string]string{
	model.DifficultyBasic:        "Basic SELECT statements, WHERE clauses, simple filtering and sorting",
	model.DifficultyIntermediate: "JOINs, GROUP BY, HAVING and aggregate functions",
	model.DifficultyAdvanced:     "Window functions, subqueries and CTEs",
	model.DifficultyExpert:       "Recursive CTEs, complex analytics and query optimization",
}

var hintInstructions = map[int]string{
	1: "Give a gentle nudge in the right direction without revealing the approach.",
	2: "Point to the specific SQL concept or clause that is needed.",
	3: "Describe the structure of the solution clearly without writing the full query.",
}

// normalizeDifficulty 未知难度按 basic 处理
func normalizeDifficulty(d string) string {
	if model.IsDifficulty(d) {
		return d
	}
	return model.DifficultyBasic
}

// normalizeHintLevel 超出 1-3 的按 1 处理
func normalizeHintLevel(level int) int {
	if _, ok := hintInstructions[level]; ok {
		return level
	}
	return 1
}

const practiceSchemaSummary = `customers(customer_id, first_name, last_name, email, phone, city, state, country, registration_date, is_active)
products(product_id, product_name, category, price, cost, stock_quantity, supplier)
orders(order_id, customer_id, order_date, ship_date, total_amount, status)
order_items(order_item_id, order_id, product_id, quantity, unit_price, discount)
employees(employee_id, first_name, last_name, email, department, position, salary, hire_date, manager_id)
sales(sale_id, employee_id, sale_date, amount, region)`

const tutorSystemPrompt = "You are an SQL tutor for a practice platform backed by SQLite. Answer exactly in the requested format."

func problemPrompt(difficulty, topic string) string {
	focus := ""
	if topic != "" {
		focus = fmt.Sprintf("\nFocus the problem on: %s", topic)
	}
	return fmt.Sprintf(`Create one SQL practice problem.
Difficulty: %s (%s)%s

The database has these tables:
%s

Respond with a single JSON object with the keys:
"title", "description", "difficulty", "topic", "hints" (an array of exactly 3 progressively stronger hints), "solution" (a query that runs on SQLite), "explanation".`,
		difficulty, difficultyDescriptions[difficulty], focus, practiceSchemaSummary)
}

func checkPrompt(req CheckRequest) string {
	expected := "not provided"
	if req.ExpectedResult != nil {
		expected = compactJSON(req.ExpectedResult, 4000)
	}
	return fmt.Sprintf(`Grade the student's SQL answer.

Problem:
%s

Student query:
%s

Query result (JSON, possibly truncated):
%s

Expected result:
%s

Respond with a single JSON object with the keys:
"correct" (boolean), "score" (integer 0-100), "message", "improvements" (array of strings), "praise".`,
		req.ProblemDescription, req.Query, compactJSON(req.Result, 4000), expected)
}

func hintPrompt(req HintRequest, level int) string {
	query := req.Query
	if query == "" {
		query = "(nothing written yet)"
	}
	return fmt.Sprintf(`A student is stuck on this SQL problem:
%s

Their current query:
%s

Hint level %d of 3. %s
Reply with the hint text only.`, req.ProblemDescription, query, level, hintInstructions[level])
}

func distractorPrompt(req DistractorRequest) string {
	return fmt.Sprintf(`Write 3 plausible but wrong answers for a multiple choice SQL flashcard.
Topic: %s
Level: %s
Question: %s
Correct answer: %s

Each wrong answer must be similar in length and style to the correct answer.
Respond with a JSON array of 3 strings only.`, req.Topic, req.Difficulty, req.Question, req.Answer)
}

func explainPrompt(req ExplainRequest) string {
	answer := ""
	if req.UserAnswer != "" {
		answer = fmt.Sprintf("\nThe student answered: %s\nAddress any misunderstanding in their answer.", req.UserAnswer)
	}
	return fmt.Sprintf(`Explain this SQL concept to a learner in a short paragraph with one small example.
Concept: %s%s
Reply with plain text only.`, req.Concept, answer)
}
