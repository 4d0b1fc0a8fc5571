// Package production holds the pure workflow rules of the pipeline: the fixed
// stage order with read-time blocking, the default task generator for approved
// scripts, and the closed task status transition table.
package production
