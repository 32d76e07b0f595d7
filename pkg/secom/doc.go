// Package secom loads the three sources of the SECOM semiconductor
// manufacturing dataset and merges them into one table.
//
// The sources are the sensor readings (secom.data), the pass/fail labels with
// their timestamps (secom_labels.data) and the vendor metadata
// (vendordata.json). Rows of the three files describe the same production
// runs in the same order; Combine relies on that and joins on row position.
//
// Two naming quirks of the original dataset tooling are kept on purpose:
// month indicator columns carry a double underscore (s_label_month__7), and
// the label timestamp is turned into a date ordinal while the vendor
// timestamp is dropped and its categorical fields are one-hot encoded.
package secom
