package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyPath       = "path"
	KeyTarget     = "target"
	KeyArea       = "area"
	KeyLocale     = "locale"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyPages      = "pages"
	KeyAssets     = "assets"
	KeyFailures   = "failures"
	KeyPort       = "port"
	KeyEvent      = "event"
	KeyBuildID    = "build_version"
	KeyMethod     = "method"
	KeyURLPath    = "url_path"
	KeyStatus     = "status"
	KeyRemoteAddr = "remote_addr"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Target(p string) slog.Attr       { return slog.String(KeyTarget, p) }
func Area(src string) slog.Attr       { return slog.String(KeyArea, src) }
func Locale(l string) slog.Attr       { return slog.String(KeyLocale, l) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Pages(n int) slog.Attr           { return slog.Int(KeyPages, n) }
func Assets(n int) slog.Attr          { return slog.Int(KeyAssets, n) }
func Failures(n int) slog.Attr        { return slog.Int(KeyFailures, n) }
func Port(p int) slog.Attr            { return slog.Int(KeyPort, p) }
func Event(op string) slog.Attr       { return slog.String(KeyEvent, op) }
func BuildVersion(v string) slog.Attr { return slog.String(KeyBuildID, v) }
func Method(m string) slog.Attr       { return slog.String(KeyMethod, m) }
func URLPath(p string) slog.Attr      { return slog.String(KeyURLPath, p) }
func Status(code int) slog.Attr       { return slog.Int(KeyStatus, code) }
func RemoteAddr(a string) slog.Attr   { return slog.String(KeyRemoteAddr, a) }

// Since reports the elapsed time from start in milliseconds.
func Since(start time.Time) slog.Attr {
	return DurationMS(float64(time.Since(start).Microseconds()) / 1000)
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
