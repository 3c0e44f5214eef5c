package build

import (
	foundation "git.home.luguber.info/inful/chloroplast/internal/foundation/errors"
)

var (
	// ErrNoAreas is returned when the configuration declares no content.
	ErrNoAreas = foundation.ConfigError("no content areas configured").Build()
	// ErrOutsideSite is returned by BuildFile for paths no area contains.
	ErrOutsideSite = foundation.NewError(foundation.CategoryNotFound, "file is not part of any content area").
			WithSeverity(foundation.SeverityWarning).Build()
)
