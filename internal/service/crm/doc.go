// Package crm implements lead, task, and email campaign management for the
// dashboard's CRM widgets. All three record kinds are soft-deletable and
// participate in the trash registry.
package crm
