package config

import "errors"

var (
	ErrFailedToLoadConfig     = errors.New("failed to load config")
	ErrFailedToValidateConfig = errors.New("failed to validate config")
	ErrUnsupportedConfigVer   = errors.New("unsupported config version")
	ErrEmptyID                = errors.New("empty id")
	ErrDuplicateID            = errors.New("duplicate id")
	ErrDuplicateNamespace     = errors.New("duplicate namespace")
	ErrMissingKey             = errors.New("missing key column")
	ErrInvalidStrategy        = errors.New("invalid strategy")
)
