package gdext

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wirebound/gdext/binding"
	"github.com/wirebound/gdext/classdb"
	"github.com/wirebound/gdext/ffi"
	"github.com/wirebound/gdext/script"
)

var (
	loggerMu sync.RWMutex
	logger   = zap.NewNop()
)

// SetLogger installs l as the logger for the whole library, fanning it
// out to every package. Passing nil restores the no-op default.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	loggerMu.Lock()
	logger = l
	loggerMu.Unlock()

	ffi.SetLogger(l)
	classdb.SetLogger(l)
	binding.SetLogger(l)
	script.SetLogger(l)
}

// Logger returns the root logger.
func Logger() *zap.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}
