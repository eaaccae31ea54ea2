/*
 * @Author: AsisYu 2773943729@qq.com
 * @Date: 2025-04-29 12:15:00
 * @Description: 字符串工具
 */
package utils

import "unicode/utf8"

// TruncateString 截断长字符串，超过最大字节数时添加省略号。
// 截断点落在多字节字符中间时向前退到字符边界，CNNIC 等响应含中文。
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
