package secom

import "log/slog"

// Default file names of the SECOM sources.
const (
	DefaultFeaturesFile = "secom.data"
	DefaultLabelsFile   = "secom_labels.data"
	DefaultVendorFile   = "vendordata.json"
)

// Column prefixes applied by each loader.
const (
	FeaturePrefix = "s_data_"
	LabelPrefix   = "s_label_"
	VendorPrefix  = "json_"
)

// DefaultIndexField is the vendor record field holding the row index.
const DefaultIndexField = "index"

// DateOrder selects how ambiguous numeric dates such as 01/08/2008 are read.
type DateOrder string

// Supported date orders.
const (
	DayFirst   DateOrder = "dmy"
	MonthFirst DateOrder = "mdy"
)

// Option configures a loader or Combine call. Options that do not apply to
// a call are ignored.
type Option func(*options)

type options struct {
	filename        string
	featureEngineer bool
	humanLabels     bool
	dateOrder       DateOrder
	indexField      string
	keepDateOrdinal bool
	joinKey         string
	strict          bool
	logger          *slog.Logger
}

func newOptions(defaultFile string, opts []Option) *options {
	o := &options{
		filename:        defaultFile,
		featureEngineer: true,
		dateOrder:       DayFirst,
		indexField:      DefaultIndexField,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.filename == "" {
		o.filename = defaultFile
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// WithFilename overrides the source file name inside the data directory.
func WithFilename(name string) Option {
	return func(o *options) { o.filename = name }
}

// WithFeatureEngineering toggles derived features (default true).
func WithFeatureEngineering(enabled bool) Option {
	return func(o *options) { o.featureEngineer = enabled }
}

// WithHumanLabels recodes targets as "Pass"/"Fail" instead of 1/0.
func WithHumanLabels(enabled bool) Option {
	return func(o *options) { o.humanLabels = enabled }
}

// WithDateOrder sets the day/month order for label timestamps.
func WithDateOrder(order DateOrder) Option {
	return func(o *options) { o.dateOrder = order }
}

// WithIndexField names the vendor record field that carries the row index.
func WithIndexField(field string) Option {
	return func(o *options) { o.indexField = field }
}

// WithDateOrdinal makes LoadVendor derive json_datetime_ordinal before the
// datetime field is dropped.
func WithDateOrdinal(enabled bool) Option {
	return func(o *options) { o.keepDateOrdinal = enabled }
}

// WithKey makes Combine join on a named row-identifier column instead of
// the row index.
func WithKey(column string) Option {
	return func(o *options) { o.joinKey = column }
}

// WithStrict makes Combine fail when rows are lost by the join.
func WithStrict(enabled bool) Option {
	return func(o *options) { o.strict = enabled }
}

// WithLogger sets the logger for the call. Nil discards logs.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}
