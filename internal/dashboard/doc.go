// Package dashboard aggregates the figures shown on the security overview
// page: resource totals, active users, recent denials and weekly activity.
package dashboard
