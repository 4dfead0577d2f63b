// Package hclconfig parses HCL command documents into config.Model.
//
//	server_uri = "http://tfs:8080/tfs/DefaultCollection"
//
//	command "github.com/.../commentsearch.Searcher" {
//	  alias = "find"
//	  properties "github.com/.../commentsearch.Settings" {
//	    ProjectPath   = "$/product1/branch1"
//	    MaxResults    = 50
//	    ExcludeOwners = ["build", "robot"]
//	  }
//	}
//
// Attribute values are evaluated without variables and handed to the mapper
// as strings, or as []string for lists and tuples.
package hclconfig
