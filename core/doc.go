// Package core defines the shared domain contracts of TaskMesh: plans and
// their TODO items, risk assessments, approval requests and actions, skills
// with their context modifications, and the execution context handed to
// tools. It is a leaf package: every other TaskMesh package depends on core
// while core itself only depends on small utility libraries. Keeping the
// contracts centralized avoids dependency cycles between the registry, the
// approval gate, the skill catalog and the execute loop.
package core
