package goroutine

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/docmint-backend/internal/logger"
)

// Go запускает fn в горутине и логирует panic вместо падения процесса.
func Go(name string, fn func()) {
	go func() {
		defer recoverAndLog(name)
		fn()
	}()
}

// Guard оборачивает долгоживущую задачу для errgroup.
// Panic превращается в ошибку, и группа корректно останавливается.
func Guard(ctx context.Context, name string, fn func(context.Context) error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				logPanic(name, r)
				err = fmt.Errorf("%s: panic: %v", name, r)
			}
		}()
		return fn(ctx)
	}
}

func recoverAndLog(name string) {
	if r := recover(); r != nil {
		logPanic(name, r)
	}
}

func logPanic(name string, r interface{}) {
	logger.L().WithFields(logrus.Fields{
		"goroutine": name,
		"panic":     fmt.Sprint(r),
		"stack":     string(debug.Stack()),
	}).Error("panic в горутине перехвачен")
}
