package goroutine

import (
	"context"
	"fmt"
	"runtime/debug"
)

// Logger интерфейс для логирования ошибок из горутин.
type Logger interface {
	Errorf(format string, args ...interface{})
}

// RecoveryHandler запускает горутины с перехватом panic.
type RecoveryHandler struct {
	logger Logger
}

// NewRecoveryHandler создаёт обработчик с заданным логгером.
func NewRecoveryHandler(logger Logger) *RecoveryHandler {
	return &RecoveryHandler{logger: logger}
}

// SafeGo запускает функцию в горутине с обработкой panic.
func (rh *RecoveryHandler) SafeGo(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				rh.logger.Errorf("panic в горутине: %v\nstack:\n%s", r, debug.Stack())
			}
		}()
		fn()
	}()
}

// SafeGoWithContext запускает функцию с контекстом и обработкой panic.
func (rh *RecoveryHandler) SafeGoWithContext(ctx context.Context, fn func(context.Context)) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				rh.logger.Errorf("panic в горутине (с контекстом): %v\nstack:\n%s", r, debug.Stack())
			}
		}()
		fn(ctx)
	}()
}

// stderrLogger — запасной логгер, если основной ещё не инициализирован.
type stderrLogger struct{}

func (l *stderrLogger) Errorf(format string, args ...interface{}) {
	fmt.Printf("[ERROR] "+format+"\n", args...)
}

// DefaultRecoveryHandler — глобальный обработчик с простым логированием.
var DefaultRecoveryHandler = NewRecoveryHandler(&stderrLogger{})

// SafeGo запускает безопасную горутину через глобальный обработчик.
func SafeGo(fn func()) {
	DefaultRecoveryHandler.SafeGo(fn)
}

// SafeGoWithContext запускает безопасную горутину с контекстом.
func SafeGoWithContext(ctx context.Context, fn func(context.Context)) {
	DefaultRecoveryHandler.SafeGoWithContext(ctx, fn)
}
