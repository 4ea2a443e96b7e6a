// Package countries holds the static visa suggestion dataset and the region
// filter applied to it.
//
// The dataset is decoded once from the embedded data/countries.yaml list and
// handed out as copies, so callers can never mutate the process-wide records.
// Notes are derived from the country name rather than stored.
package countries
