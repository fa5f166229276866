// Package git wraps the handful of git invocations bgoblin needs.
//
// Branch state always comes from the git binary itself: `git branch` for
// the listing, `git branch -D` and `git branch -m` for mutations and
// `git checkout` for the temporary switch a current-branch rename needs.
// Workspace discovery is the one exception and uses go-git to find the
// working tree root and metadata directories without spawning a process.
package git
