// Package highlight resolves row styles from prioritized highlight rules.
//
// Rules are evaluated from highest to lowest priority and the first match
// wins. Each rule is an AND of per-field filter specs; a rule with nothing
// configured matches every record. Resolved lipgloss styles are cached per
// rule, merged row styles per (parity, rule, selected) key, both in bounded
// LRU caches owned by the Engine.
package highlight
