// Package competitor implements competitor profile management.
//
// The service layer owns validation and business rules for competitor
// profiles, their threat alerts, and recorded performance metrics. It depends
// on the repository interface defined in this package and never imports from
// the api layer.
//
// The repository implementation lives in repository/postgres/.
package competitor
