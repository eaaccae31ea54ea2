package record

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownMember = errors.New("record: unknown member")
	ErrArgument      = errors.New("record: invalid argument")
	ErrTypeMismatch  = errors.New("record: type mismatch")
	ErrDuplicateHost = errors.New("record: host already registered")
	ErrInvalidName   = errors.New("record: invalid catalog name")
	ErrNameConflict  = errors.New("record: name registered as both property and method")
)

// UnknownMemberError 访问了目录中不存在、记录本身也不提供的成员
type UnknownMemberError struct {
	Name string
}

func (e *UnknownMemberError) Error() string {
	return fmt.Sprintf("record: unknown member %q", e.Name)
}

func (e *UnknownMemberError) Unwrap() error { return ErrUnknownMember }

// ArgumentError 比较操作收到了非 Record 参数
type ArgumentError struct {
	Op  string
	Got any
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("record: %s expects *record.Record, got %T", e.Op, e.Got)
}

func (e *ArgumentError) Unwrap() error { return ErrArgument }
