// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML-based settings storage
//   - PromptStore: user-editable prompt files
//   - ChannelStore: channels, schedules and source bindings from YAML
//   - Watcher: reloads channel files on change
package file
