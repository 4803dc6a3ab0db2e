package core

import (
	"io"

	log "github.com/sirupsen/logrus"
)

// storeLogger is a package-level, swappable logger, following the same
// pattern as the teacher's core/wallet.go (SetWalletLogger/globalLogger) and
// core/security.go (SetSecurityLogger). Library consumers who don't call
// SetLogger get silence.
var storeLogger = func() *log.Logger {
	l := log.New()
	l.SetOutput(io.Discard)
	return l
}()

// SetLogger installs the logger used by the store kernel for agent
// creation, commit signing and commit application diagnostics.
func SetLogger(l *log.Logger) { storeLogger = l }
