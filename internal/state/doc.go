// Package state keeps what the reply feed has learned: the latest values of
// every actor keyword and when each actor was last heard from.
package state
