// Package server exposes the mesh config over HTTP.
//
// # Routes
//
//	GET    /config.json          current config, 404 when none was saved
//	POST   /api/save-config      validate and persist a config
//	GET    /api/presets          built-in and user presets
//	POST   /api/presets          save a user preset {name, config}
//	DELETE /api/presets/{name}   delete a user preset, ?confirm=<name>
//	POST   /api/presets/{name}/apply  merge a preset over the saved config
//	GET    /api/templates        page templates and their mesh settings
//	POST   /api/message          relay a bus message
//
// Every response carries permissive CORS headers and OPTIONS preflight is
// answered for all routes. A Watcher publishes config-changed on the bus
// when the config file is edited outside the server.
package server
