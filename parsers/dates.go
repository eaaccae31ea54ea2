package parsers

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// 部分注册局在日期后附带时区说明，例如 "2027-03-10 19:12:39 (CST)"
var dateSuffixes = []string{" (CST)", " (UTC)", " UTC", " CST"}

// parseTime 解析各注册局的日期格式，无时区信息按 UTC 处理
func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, suffix := range dateSuffixes {
		s = strings.TrimSuffix(s, suffix)
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t.UTC(), nil
}

// timeValue 空值返回 nil，其余解析为 time.Time
func timeValue(s string) (any, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := parseTime(s)
	if err != nil {
		return nil, err
	}
	return t, nil
}
