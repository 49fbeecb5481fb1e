package logger

import (
	"io"

	"github.com/sirupsen/logrus"
)

var Log *logrus.Logger

// Init инициализирует структурированный логгер.
// В development включается debug уровень и текстовый формат.
func Init(level, env string) {
	Log = logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)
	Log.SetFormatter(&logrus.JSONFormatter{})

	if env == "development" {
		SetTextFormatter()
	}
}

// SetTextFormatter устанавливает текстовый формат логов (для development).
func SetTextFormatter() {
	if Log != nil {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
}

// L возвращает текущий логгер. До Init используется стандартный логгер logrus,
// поэтому пакеты могут логировать и в тестах без инициализации.
func L() *logrus.Logger {
	if Log == nil {
		return logrus.StandardLogger()
	}
	return Log
}

// Discard отключает вывод логов (для тестов и CLI с флагом --quiet).
func Discard() {
	if Log == nil {
		Log = logrus.New()
	}
	Log.SetOutput(io.Discard)
}
