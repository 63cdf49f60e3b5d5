// Package wizard implements the interactive topology spec generator behind
// "netforge init". It asks a short series of questions and writes the
// answers out as a spec file ready for plan and apply.
package wizard
