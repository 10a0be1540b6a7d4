// Package skill implements the skill catalog and the modulation layer: it
// maps a task onto a behavior profile (a core.Skill) and produces a mutated
// execution context via Skill.Apply.
//
// A fixed built-in set of skills is available at construction; records from
// an optional Store override built-ins by name, and skills registered at
// runtime are best-effort persisted back to the store.
package skill
