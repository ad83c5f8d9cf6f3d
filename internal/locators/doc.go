// Package locators classifies Python installations. Each locator owns
// one environment family: it can enumerate the locations its tool
// manages, and it can confirm whether an arbitrary candidate
// interpreter belongs to its family.
//
// Registry order is a correctness property, not a tuning knob. Several
// families nest (a pyenv-installed conda root contains conda envs that
// are also plain prefixes with a python in bin), so the most specific
// locator must see a candidate first and the catch-all ones last.
package locators
