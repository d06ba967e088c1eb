// Package domain contains the core domain model of the identity service: the
// User aggregate, its value objects (Username, Email, Password) and the domain
// events recorded against it. These types enforce their own invariants at
// construction and are intentionally free of infrastructure concerns so they
// can be shared across packages.
package domain
