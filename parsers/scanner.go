/*
 * @Author: AsisYu 2773943729@qq.com
 * @Date: 2026-09-06 10:20:00
 * @Description: "Key: Value" 文本扫描工具，供各服务器后端共用
 */
package parsers

import (
	"bufio"
	"strings"
)

// fields 一段文本中的键值对，键统一小写
type fields struct {
	values map[string][]string
}

// scan 逐行解析 "Key: Value"，跳过以 % 或 # 开头的注释行
func scan(text string) fields {
	f := fields{values: make(map[string][]string)}
	s := bufio.NewScanner(strings.NewReader(text))
	s.Buffer(make([]byte, 64*1024), 1024*1024)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" || line[0] == '%' || line[0] == '#' || strings.HasPrefix(line, ">>>") {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" || strings.ContainsAny(key, "<>") {
			continue
		}
		f.values[key] = append(f.values[key], strings.TrimSpace(value))
	}
	return f
}

// first 按顺序返回第一个非空值
func (f fields) first(keys ...string) string {
	for _, key := range keys {
		for _, v := range f.values[key] {
			if v != "" {
				return v
			}
		}
	}
	return ""
}

// all 返回该键的全部非空值
func (f fields) all(key string) []string {
	var out []string
	for _, v := range f.values[key] {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (f fields) has(key string) bool {
	_, ok := f.values[key]
	return ok
}

// blocks 以空行分段后逐段扫描
func blocks(text string) []fields {
	var out []fields
	for _, chunk := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n") {
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		if f := scan(chunk); len(f.values) > 0 {
			out = append(out, f)
		}
	}
	return out
}

// containsAny 忽略大小写匹配任一短语
func containsAny(text string, phrases ...string) bool {
	lower := strings.ToLower(text)
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// paragraph 返回以 marker 开头的段落（到下一个空行为止），找不到时为空
func paragraph(text, marker string) string {
	idx := strings.Index(text, marker)
	if idx < 0 {
		return ""
	}
	rest := strings.ReplaceAll(text[idx:], "\r\n", "\n")
	if end := strings.Index(rest, "\n\n"); end >= 0 {
		rest = rest[:end]
	}
	return strings.Join(strings.Fields(rest), " ")
}

// firstToken 状态值常带说明链接，只保留第一个词
func firstToken(s string) string {
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return s[:i]
	}
	return s
}

// orNil 空字符串视为未提供
func orNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// stripLines 去掉包含任一标记的行，用于比较前去除查询时间戳
func stripLines(text string, markers ...string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := lines[:0]
	for _, line := range lines {
		if !containsAny(line, markers...) {
			out = append(out, line)
		}
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
