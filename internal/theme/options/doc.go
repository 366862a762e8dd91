// Package options normalizes the theme option map supplied by the user.
//
// The functions here operate on the raw map decoded from the project file and
// mutate it in place: deprecated keys are rewritten to their replacements,
// compound options are shape-checked, and shortcut options are expanded.
// Deprecations and other recoverable issues are reported as warnings;
// malformed compound options are hard configuration errors.
//
// Theme defaults (the equivalent of a theme.conf) are not written into the
// user map; Merge overlays the user map on Defaults when a page context is
// built.
package options
