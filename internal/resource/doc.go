// Package resource manages Wayne Industries assets: vehicles, aircraft,
// equipment and infrastructure tracked by the security platform.
//
// Every create, update and delete commits together with exactly one
// access-log entry attributed to the acting user.
package resource
