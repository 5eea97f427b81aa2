// Package assemble holds the pluggable strategies of enrichment operations:
// assemblers decide how a field value becomes lookup keys and how fetched
// values become the value to place; disassemblers decide how a nested field
// is expanded into instances for recursive enrichment.
package assemble
