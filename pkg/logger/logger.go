/*
 * @Author: AsisYu 2773943729@qq.com
 * @Date: 2025-12-30
 * @Description: 统一日志系统 - 基于uber-go/zap，可选lumberjack文件切割
 */

package logger

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	// base 是全局zap logger实例
	base *zap.Logger
	// sugar 是全局SugaredLogger实例，支持printf风格
	sugar *zap.SugaredLogger
	// rotator 文件输出，未配置时为nil
	rotator *lumberjack.Logger
)

// ContextKey 用于从context中获取request ID
type ContextKey string

const RequestIDKey ContextKey = "request_id"

// Options 日志初始化参数
type Options struct {
	// Env "dev" 使用开发模式（彩色输出），其它值使用JSON格式
	Env string
	// File 非空时同时写入该文件并按大小切割
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Init 初始化全局logger
func Init(opts Options) error {
	var encCfg zapcore.EncoderConfig
	var level zapcore.Level
	var encoder zapcore.Encoder

	if isDev(opts.Env) {
		// 开发模式：易读的控制台格式
		encCfg = zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		level = zapcore.DebugLevel
	} else {
		// 生产模式：JSON格式，便于日志聚合
		encCfg = zap.NewProductionEncoderConfig()
		level = zapcore.InfoLevel
	}

	// 统一时间格式
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.CallerKey = "caller"
	encCfg.FunctionKey = "func"

	if isDev(opts.Env) {
		encoder = zapcore.NewConsoleEncoder(encCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encCfg)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level),
	}

	if opts.File != "" {
		// 确保日志目录存在
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return err
		}
		rotator = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    orDefault(opts.MaxSizeMB, 100), // 每个日志文件最大大小，单位为MB
			MaxBackups: orDefault(opts.MaxBackups, 30), // 保留的旧日志文件最大数量
			MaxAge:     orDefault(opts.MaxAgeDays, 90), // 保留旧日志文件的最大天数
			Compress:   true,
			LocalTime:  true,
		}
		// 文件始终使用JSON格式
		fileCfg := zap.NewProductionEncoderConfig()
		fileCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileCfg), zapcore.AddSync(rotator), level))
	}

	// AddCallerSkip(1) 跳过logger包装层，显示真实调用位置
	l := zap.New(zapcore.NewTee(cores...),
		zap.AddCaller(),
		zap.AddCallerSkip(1),
		zap.AddStacktrace(zapcore.ErrorLevel), // ERROR级别自动添加堆栈
	)

	base = l
	sugar = l.Sugar()

	// 向后兼容：重定向标准库log到zap
	stdLog := zap.NewStdLog(l)
	log.SetOutput(stdLog.Writer())
	log.SetFlags(0) // zap已包含时间戳，移除标准库的

	return nil
}

func isDev(env string) bool {
	return env == "dev" || env == "development"
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// Module 创建带模块名称的logger
// 用法: logger.Module("Registry").Debugf("no backend for %s", host)
func Module(name string) *zap.SugaredLogger {
	if sugar == nil {
		// 未初始化时不输出，避免测试与库调用方被日志淹没
		return zap.NewNop().Sugar().Named(name)
	}
	return sugar.Named(name)
}

// WithRequest 从Gin context中获取request ID并创建带request_id字段的logger
func WithRequest(c *gin.Context, moduleName string) *zap.SugaredLogger {
	l := Module(moduleName)

	if requestID, exists := c.Get("request_id"); exists {
		l = l.With("request_id", requestID)
	}

	return l.With("client_ip", c.ClientIP())
}

// FromContext 从标准context.Context中获取request ID
func FromContext(ctx context.Context, moduleName string) *zap.SugaredLogger {
	l := Module(moduleName)

	if requestID := ctx.Value(RequestIDKey); requestID != nil {
		l = l.With("request_id", requestID)
	}

	return l
}

// Sync 刷新日志缓冲区，程序退出前应调用
func Sync() {
	if base != nil {
		_ = base.Sync()
	}
	if rotator != nil {
		_ = rotator.Close()
	}
}

// DeriveEnvironment 根据环境变量推导运行环境
func DeriveEnvironment() string {
	if ginMode := os.Getenv("GIN_MODE"); ginMode != "" {
		if ginMode == "release" {
			return "production"
		}
		return "dev"
	}

	if env := os.Getenv("APP_ENV"); env != "" {
		return env
	}

	return "dev"
}
