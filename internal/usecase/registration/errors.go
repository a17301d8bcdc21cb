package registration

import "errors"

var errNoStore = errors.New("attachment storage is not configured")
