// Package criteria holds the named query expressions whose match counts
// become the feature columns of an extraction.
//
// A Store is an insertion-ordered mapping from feature name to Criterion.
// Names are unique; the order in which criteria are added fixes the order of
// the feature columns in every table produced from the store.
//
// Criteria are usually declared in a config file:
//
//	{
//	  "features_to_count": [
//	    {"name": "links",  "xpath": "//a"},
//	    {"name": "images", "xpath": "//img"},
//	    {"name": "cards",  "css": "div.card"}
//	  ]
//	}
//
// The same layout is accepted as YAML (.yaml, .yml) and TOML (.toml).
package criteria
