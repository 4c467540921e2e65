// Package config loads and persists the calaudit configuration file: the
// workday window, the long-block threshold, the reporting timezone, and the
// audited user list.
//
// The file lives in the user config directory as YAML and is created with
// defaults on first run. The algorithmic core never reads this ambient
// state; callers load a Config once and pass the derived values in.
package config
