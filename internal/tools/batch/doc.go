// Package batch runs a tool operation over several document IDs and reports
// per-item outcomes. One failing item never aborts the others.
package batch
