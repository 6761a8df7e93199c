package cryptox

import "errors"

var errMalformedHash = errors.New("malformed password hash")
