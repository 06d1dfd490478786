// Package sqlcheck 对用户提交的 SQL 做词法级安全检查。
//
// 检查只看关键字是否出现，不解析语法：字符串或注释中出现的关键字同样会被拒绝，
// 也无法识别方言层面的绕过。它是一道尽力而为的闸门，真正的隔离依赖练习库的只读连接。
package sqlcheck

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	ReasonSafe        = "Query is safe"
	ReasonNotReadOnly = "Only SELECT queries and CTEs are allowed"
)

// ForbiddenKeywords 按检查顺序排列，命中时报告第一个
var ForbiddenKeywords = []string{
	"DROP",
	"DELETE",
	"INSERT",
	"UPDATE",
	"ALTER",
	"CREATE",
	"TRUNCATE",
	"REPLACE",
	"PRAGMA",
}

var keywordPatterns = func() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(ForbiddenKeywords))
	for i, kw := range ForbiddenKeywords {
		patterns[i] = regexp.MustCompile(`\b` + kw + `\b`)
	}
	return patterns
}()

// IsSafe 判断查询是否为只读查询，返回结果和原因
func IsSafe(query string) (bool, string) {
	normalized := strings.ToUpper(strings.TrimSpace(query))

	for i, pattern := range keywordPatterns {
		if pattern.MatchString(normalized) {
			return false, fmt.Sprintf("Query contains forbidden keyword: %s", ForbiddenKeywords[i])
		}
	}

	if !strings.HasPrefix(normalized, "SELECT") && !strings.HasPrefix(normalized, "WITH") {
		return false, ReasonNotReadOnly
	}

	return true, ReasonSafe
}
