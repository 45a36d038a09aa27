// Package catalog decides which HTTP status a /code/{code}/ or
// /empty/{code}/ request is answered with.
package catalog
