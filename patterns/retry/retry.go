// Package retry 提供指数退避的重试执行器
//
// 命令编排层自身不做重试，冲突后的重新提交由调用方决定；
// 本包即为调用方准备的工具：DoIf 配合错误判定函数可实现
// "仅并发冲突时以最新状态重试"的提交策略。
package retry

import (
	"context"
	"time"
)

// Operation 可重试的操作函数类型
type Operation func(ctx context.Context) error

// Config 重试配置
type Config struct {
	MaxAttempts   int           // 最大尝试次数（包括首次）
	InitialDelay  time.Duration // 初始退避延迟
	BackoffFactor float64       // 退避倍数
	MaxDelay      time.Duration // 最大延迟
}

// DefaultConfig 返回默认配置：3次尝试，2ms起步，指数退避，上限1s
func DefaultConfig() Config {
	return Config{
		MaxAttempts:   3,
		InitialDelay:  2 * time.Millisecond,
		BackoffFactor: 2.0,
		MaxDelay:      1 * time.Second,
	}
}

// Do 执行带重试的操作，任意一次成功即返回nil，
// 全部失败时返回最后一次的错误。
func Do(ctx context.Context, op Operation, cfg Config) error {
	return DoIf(ctx, op, func(error) bool { return true }, cfg)
}

// DoIf 执行带重试的操作，仅当 shouldRetry 对错误返回 true 时才继续尝试
//
// 不可重试的错误（如校验失败、余额不足）立即原样返回；
// 上下文取消随时中止并返回 ctx.Err()。
func DoIf(ctx context.Context, op Operation, shouldRetry func(error) bool, cfg Config) error {
	var lastErr error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := op(ctx)
		if err == nil {
			return nil
		}
		if !shouldRetry(err) {
			return err
		}
		lastErr = err

		if attempt < cfg.MaxAttempts {
			delay := backoff(cfg, attempt)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return lastErr
}

func backoff(cfg Config, attempt int) time.Duration {
	delay := cfg.InitialDelay
	for i := 1; i < attempt; i++ {
		delay = time.Duration(float64(delay) * cfg.BackoffFactor)
		if delay >= cfg.MaxDelay {
			return cfg.MaxDelay
		}
	}
	if delay > cfg.MaxDelay {
		return cfg.MaxDelay
	}
	return delay
}
