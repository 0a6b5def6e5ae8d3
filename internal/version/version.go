package version

import "fmt"

// Заполняются при сборке через -ldflags:
//
//	-X .../internal/version.version=v1.2.3
//	-X .../internal/version.commit=<sha>
//	-X .../internal/version.date=<iso8601>
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Version возвращает версию сборки.
func Version() string { return version }

// Info возвращает версию, коммит и дату сборки.
func Info() (v, c, d string) { return version, commit, date }

// String собирает строку для вывода по флагу -version.
func String() string {
	return fmt.Sprintf("version=%s commit=%s date=%s", version, commit, date)
}
