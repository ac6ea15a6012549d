// Package extract 从大模型的混合文本输出中定位并恢复 JSON
package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

var (
	// ```json ... ``` 围栏代码块
	fencedRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")
	// 行注释与块注释,部分模型会在 JSON 里夹带说明
	commentRe = regexp.MustCompile(`(?s)(\s*//[^\n]*\n)|(/\*.*?\*/)`)
	// 非法转义,如 \Delta、\% 等
	badEscapeRe = regexp.MustCompile(`\\([^"\\/bfnrtu])`)
	// 收尾括号前的多余逗号
	trailingCommaRe = regexp.MustCompile(`,(\s*[}\]])`)
	// 除 \n \r \t 外的控制字符
	controlRe = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]`)
)

// Service 负责应答文本到 JSON 的提取与修复
type Service struct{}

// NewService 创建提取服务
func NewService() *Service {
	return &Service{}
}

// Extract 从混合文本中提取 JSON 并解析
// 策略：先定位候选区域，再逐级修复（快速路径 → 清洗 → 括号补全 → jsonrepair）
func (s *Service) Extract(text string) (interface{}, error) {
	candidate := Locate(text)
	if candidate == "" {
		return nil, fmt.Errorf("no json payload found in text")
	}

	// 快速路径：本身就是有效 JSON
	if v, err := parse(candidate); err == nil {
		return v, nil
	}

	cleaned := Scrub(candidate)
	if v, err := parse(cleaned); err == nil {
		return v, nil
	}

	balanced := Balance(cleaned)
	if v, err := parse(balanced); err == nil {
		return v, nil
	}

	// 强力修复兜底
	repaired, err := jsonrepair.JSONRepair(cleaned)
	if err != nil {
		return nil, fmt.Errorf("failed to repair json: %w", err)
	}
	v, err := parse(repaired)
	if err != nil {
		return nil, fmt.Errorf("repaired json still invalid: %w", err)
	}
	return v, nil
}

// ExtractObject 提取并保证返回对象,顶层数组会被包进评估结果字段
func (s *Service) ExtractObject(text string) (map[string]interface{}, error) {
	v, err := s.Extract(text)
	if err != nil {
		return nil, err
	}
	switch t := v.(type) {
	case map[string]interface{}:
		return t, nil
	case []interface{}:
		return map[string]interface{}{"functional_evidence_assessment": t}, nil
	default:
		return nil, fmt.Errorf("unexpected json top-level type %T", v)
	}
}

// Locate 在混合文本中定位 JSON 候选区域
// 优先级：围栏代码块 > 最外层对象 > 最外层数组 > 全文
func Locate(text string) string {
	if m := fencedRe.FindStringSubmatch(text); m != nil {
		inner := strings.TrimSpace(m[1])
		if inner != "" {
			return inner
		}
	}
	if i, j := strings.IndexByte(text, '{'), strings.LastIndexByte(text, '}'); i >= 0 && j > i {
		return text[i : j+1]
	}
	if i, j := strings.IndexByte(text, '['), strings.LastIndexByte(text, ']'); i >= 0 && j > i {
		return text[i : j+1]
	}
	return strings.TrimSpace(text)
}

// Scrub 清洗模型生成的常见伪影：注释、非法转义、尾逗号、控制字符
func Scrub(s string) string {
	s = commentRe.ReplaceAllString(s, "\n")
	s = badEscapeRe.ReplaceAllString(s, `\\$1`)
	s = trailingCommaRe.ReplaceAllString(s, "$1")
	s = controlRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// Balance 补全因输出截断缺失的引号与括号
func Balance(s string) string {
	var stack []byte
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{', '[':
			if !inString {
				stack = append(stack, c)
			}
		case '}':
			if !inString && len(stack) > 0 && stack[len(stack)-1] == '{' {
				stack = stack[:len(stack)-1]
			}
		case ']':
			if !inString && len(stack) > 0 && stack[len(stack)-1] == '[' {
				stack = stack[:len(stack)-1]
			}
		}
	}

	if inString {
		s += `"`
	}
	s = strings.TrimRight(s, " \t\n\r")
	s = strings.TrimSuffix(s, ",")
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == '{' {
			s += "}"
		} else {
			s += "]"
		}
	}
	return s
}

func parse(s string) (interface{}, error) {
	var v interface{}
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, err
	}
	switch v.(type) {
	case map[string]interface{}, []interface{}:
		return v, nil
	}
	return nil, fmt.Errorf("json top-level is not an object or array")
}
