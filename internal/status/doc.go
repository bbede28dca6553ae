// Package status serves a plain-text summary of the reply feed over HTTP.
package status
