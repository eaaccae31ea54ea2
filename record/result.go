/*
 * @Author: AsisYu 2773943729@qq.com
 * @Date: 2026-09-02 10:20:00
 * @Description: 属性解析结果 - 已支持/不支持/未定义 三态
 */
package record

// State 后端对某个属性的声明状态
type State int

const (
	// StateUndefined 后端根本没有声明该属性
	StateUndefined State = iota
	// StateUnsupported 后端明确声明不支持该属性
	StateUnsupported
	// StateSupported 后端支持该属性，值可以为空
	StateSupported
)

func (s State) String() string {
	switch s {
	case StateSupported:
		return "supported"
	case StateUnsupported:
		return "unsupported"
	default:
		return "undefined"
	}
}

// Result 单个后端对属性查询的回答
type Result struct {
	state State
	value any
	err   error
}

// Value 已支持的属性值，nil 也是合法的回答
func Value(v any) Result {
	return Result{state: StateSupported, value: v}
}

// Failed 已支持的属性在计算时出错，错误会原样向上传递
func Failed(err error) Result {
	return Result{state: StateSupported, err: err}
}

// Unsupported 后端明确不支持
func Unsupported() Result {
	return Result{state: StateUnsupported}
}

// Undefined 后端没有实现
func Undefined() Result {
	return Result{}
}

func (r Result) State() State { return r.state }

func (r Result) Supported() bool { return r.state == StateSupported }

// Value 返回属性值，非 supported 状态下恒为 nil
func (r Result) Value() any { return r.value }

func (r Result) Err() error { return r.err }

// Unwrap 以 (值, 错误) 形式返回结果
func (r Result) Unwrap() (any, error) {
	return r.value, r.err
}
