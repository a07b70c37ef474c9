// Package procutil builds the child processes that run bound commands.
// ShellCommand picks the platform shell and its command-string flag; on
// Windows it also suppresses the console window the child would otherwise
// flash.
package procutil
