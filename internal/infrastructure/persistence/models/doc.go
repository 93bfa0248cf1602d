// Package models contains GORM persistence models. Domain types carry no
// ORM tags; each model here maps one table and converts to and from its
// domain type.
package models
