// Package ui provides the Bubble Tea terminal console for vantage: a targets
// table over the platform's pods and job runs, and a live log view fed by the
// bounded stream decoder.
package ui
