// Package visacheck provides the visa success checker page as a small,
// mountable net/http component.
//
// GET and HEAD render the empty query form. POST validates the submitted
// nationality, residence and purpose, filters the embedded country list by
// the selected regions, and renders the ranked list together with an inline
// PNG bar chart. Adding ?format=json (or sending Accept: application/json)
// returns the same result as JSON.
package visacheck
