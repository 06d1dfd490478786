package service

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

const distractorCount = 3

var (
	codeFencePattern    = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)\\s*```")
	quotedStringPattern = regexp.MustCompile(`"((?:[^"\\]|\\.)*)"`)
)

// parseError 模型输出无法解析，错误信息包含 json.Unmarshal 以触发重试
type parseError struct {
	content string
	err     error
}

func (e *parseError) Error() string {
	return fmt.Sprintf("json.Unmarshal(%s) > %v", truncate(e.content, 200), e.err)
}

func (e *parseError) Unwrap() error {
	return e.err
}

// stripCodeFences 去掉 ```json 代码块包裹
func stripCodeFences(s string) string {
	if m := codeFencePattern.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return strings.TrimSpace(s)
}

// extractBalanced 提取第一个括号配对完整的 JSON 片段，忽略字符串中的括号
func extractBalanced(s string, open, close byte) (string, bool) {
	start := strings.IndexByte(s, open)
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// decodeObject 从模型输出中解析 JSON 对象
func decodeObject(content string, v interface{}) error {
	body, ok := extractBalanced(stripCodeFences(content), '{', '}')
	if !ok {
		return &parseError{content: content, err: fmt.Errorf("no JSON object found")}
	}
	if err := json.Unmarshal([]byte(body), v); err != nil {
		return &parseError{content: content, err: err}
	}
	return nil
}

// parseWrongAnswers 解析干扰项数组，数组损坏时退回到提取引号内字符串
func parseWrongAnswers(content string) ([]string, error) {
	cleaned := stripCodeFences(content)

	if body, ok := extractBalanced(cleaned, '[', ']'); ok {
		var raw []interface{}
		if err := json.Unmarshal([]byte(body), &raw); err == nil {
			answers := make([]string, 0, len(raw))
			for _, item := range raw {
				if item == nil {
					continue
				}
				if s := strings.TrimSpace(fmt.Sprint(item)); s != "" {
					answers = append(answers, s)
				}
			}
			return padOptions(answers), nil
		}
	}

	matches := quotedStringPattern.FindAllStringSubmatch(cleaned, -1)
	if len(matches) >= distractorCount {
		answers := make([]string, 0, len(matches))
		for _, m := range matches {
			var s string
			if err := json.Unmarshal([]byte(`"`+m[1]+`"`), &s); err != nil {
				s = m[1]
			}
			answers = append(answers, s)
		}
		return padOptions(answers), nil
	}

	return nil, &parseError{content: content, err: fmt.Errorf("no answer list found")}
}

// padOptions 截断或补齐到固定数量
func padOptions(answers []string) []string {
	out := make([]string, 0, distractorCount)
	for _, a := range answers {
		if len(out) == distractorCount {
			break
		}
		out = append(out, a)
	}
	for len(out) < distractorCount {
		out = append(out, fmt.Sprintf("Incorrect option %d", len(out)+1))
	}
	return out
}

// cleanText 去掉首尾空白和包裹的引号
func cleanText(s string) string {
	s = strings.TrimSpace(stripCodeFences(s))
	for len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			s = strings.TrimSpace(s[1 : len(s)-1])
			continue
		}
		break
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
