// Package utils provides small conversion helpers shared by the roster parser
// and the command line reports.
package utils
