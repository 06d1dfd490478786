package service

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sql_practice_backend/internal/model"
)

// 内容服务不可用时使用的内置题目
var fallbackProblems = map[string]model.Problem{
	model.DifficultyBasic: {
		Title:       "Active Customers in Texas",
		Description: "List the first name, last name and city of every active customer located in the state of TX, ordered by last name.",
		Difficulty:  model.DifficultyBasic,
		Topic:       "Filtering and sorting",
		Hints: []string{
			"You only need the customers table.",
			"Combine two conditions in WHERE with AND: one on state, one on is_active.",
			"Finish with ORDER BY last_name.",
		},
		Solution:    "SELECT first_name, last_name, city\nFROM customers\nWHERE state = 'TX' AND is_active = 1\nORDER BY last_name;",
		Explanation: "WHERE keeps only the rows matching both conditions and ORDER BY sorts the remaining rows alphabetically.",
	},
	model.DifficultyIntermediate: {
		Title:       "Revenue by Product Category",
		Description: "For each product category, show the number of items sold and the total revenue (quantity * unit_price * (1 - discount)). Only include categories with more than 100 items sold.",
		Difficulty:  model.DifficultyIntermediate,
		Topic:       "JOINs and aggregation",
		Hints: []string{
			"Revenue lives in order_items but the category is on products.",
			"JOIN order_items to products on product_id and GROUP BY category.",
			"Filter the groups with HAVING SUM(quantity) > 100.",
		},
		Solution:    "SELECT p.category,\n       SUM(oi.quantity) AS items_sold,\n       ROUND(SUM(oi.quantity * oi.unit_price * (1 - oi.discount)), 2) AS revenue\nFROM order_items oi\nJOIN products p ON p.product_id = oi.product_id\nGROUP BY p.category\nHAVING SUM(oi.quantity) > 100\nORDER BY revenue DESC;",
		Explanation: "The JOIN brings the category onto every order line, GROUP BY collapses lines per category and HAVING filters on the aggregate.",
	},
	model.DifficultyAdvanced: {
		Title:       "Top Seller per Region",
		Description: "For every sales region, find the employee with the highest total sales amount. Show region, employee name and total.",
		Difficulty:  model.DifficultyAdvanced,
		Topic:       "Window functions",
		Hints: []string{
			"First compute total sales per employee per region.",
			"RANK() OVER (PARTITION BY region ORDER BY total DESC) numbers employees inside each region.",
			"Wrap the ranked totals in a CTE and keep rank 1.",
		},
		Solution:    "WITH totals AS (\n    SELECT s.region, e.first_name || ' ' || e.last_name AS employee, SUM(s.amount) AS total\n    FROM sales s\n    JOIN employees e ON e.employee_id = s.employee_id\n    GROUP BY s.region, s.employee_id\n), ranked AS (\n    SELECT *, RANK() OVER (PARTITION BY region ORDER BY total DESC) AS rnk\n    FROM totals\n)\nSELECT region, employee, ROUND(total, 2) AS total\nFROM ranked\nWHERE rnk = 1\nORDER BY region;",
		Explanation: "The window function ranks employees within each region without collapsing rows, which lets the outer query pick the top row per partition.",
	},
	model.DifficultyExpert: {
		Title:       "Management Chain Depth",
		Description: "Show every employee together with their depth in the management hierarchy, where employees without a manager are at depth 1.",
		Difficulty:  model.DifficultyExpert,
		Topic:       "Recursive CTEs",
		Hints: []string{
			"The hierarchy is stored through employees.manager_id.",
			"Use WITH RECURSIVE: the anchor selects employees with manager_id IS NULL.",
			"The recursive member joins employees to the CTE on manager_id and adds 1 to the depth.",
		},
		Solution:    "WITH RECURSIVE chain AS (\n    SELECT employee_id, first_name, last_name, 1 AS depth\n    FROM employees\n    WHERE manager_id IS NULL\n    UNION ALL\n    SELECT e.employee_id, e.first_name, e.last_name, c.depth + 1\n    FROM employees e\n    JOIN chain c ON e.manager_id = c.employee_id\n)\nSELECT * FROM chain ORDER BY depth, employee_id;",
		Explanation: "The anchor query seeds the top of the tree and each recursive step walks one level down until no more reports are found.",
	},
}

var fallbackHints = map[int]string{
	1: "Re-read the problem and list which tables hold the columns you need.",
	2: "Think about which clause does the work here: a JOIN to combine tables, WHERE to filter rows, or GROUP BY with an aggregate.",
	3: "Build the query step by step: start with FROM and the JOINs, add WHERE, then GROUP BY and HAVING, and finally SELECT and ORDER BY.",
}

func fallbackProblem(difficulty, topic string) model.Problem {
	p := fallbackProblems[normalizeDifficulty(difficulty)]
	p.Hints = append([]string(nil), p.Hints...)
	p.Source = model.ProblemSourceFallback
	return p
}

func fallbackDistractors(answer string) []string {
	return []string{fmt.Sprintf("Not %s", answer), "This is incorrect", "Wrong answer"}
}

// fallbackFeedback 无法调用模型时，按期望结果做精确比对
func fallbackFeedback(req CheckRequest) model.Feedback {
	if req.ExpectedResult == nil {
		return model.Feedback{
			Correct:      false,
			Score:        0,
			Message:      "Automatic grading is unavailable right now. Compare your result with the expected output manually.",
			Improvements: []string{},
		}
	}

	if sameJSON(req.Result, req.ExpectedResult) {
		return model.Feedback{
			Correct:      true,
			Score:        100,
			Message:      "Your result matches the expected output.",
			Improvements: []string{},
			Praise:       "Well done!",
		}
	}
	return model.Feedback{
		Correct:      false,
		Score:        0,
		Message:      "Your result does not match the expected output.",
		Improvements: []string{"Check the columns, filters and ordering of your query against the problem statement."},
	}
}

// sameJSON 结构相同视为相等（数字类型差异忽略）
func sameJSON(a, b interface{}) bool {
	var na, nb interface{}
	ja, err := json.Marshal(a)
	if err != nil {
		return false
	}
	jb, err := json.Marshal(b)
	if err != nil {
		return false
	}
	if json.Unmarshal(ja, &na) != nil || json.Unmarshal(jb, &nb) != nil {
		return false
	}
	return reflect.DeepEqual(na, nb)
}

func compactJSON(v interface{}, limit int) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return truncate(string(b), limit)
}
