// Package model layers named document types over a docstore.DocStore.
//
// A [Registry] holds models defined by name. Each [Model] derives ids for the
// records it saves, validates them before any write, and exposes declared
// range queries and actions that run against the registry's host store.
//
// # Defining models
//
//	reg := model.NewRegistry(db)
//	bands := reg.Define("band", model.Definition{
//	    ID: model.Segments(func(doc docstore.Doc) []string {
//	        genre, _ := doc["genre"].(string)
//	        name, _ := doc["name"].(string)
//	        return []string{"band", genre, name}
//	    }),
//	    Validate: func(doc docstore.Doc) map[string]string {
//	        if doc["name"] == nil {
//	            return map[string]string{"name": "required"}
//	        }
//	        return nil
//	    },
//	    Queries: map[string]model.Query{
//	        "inGenre": {Options: func(args ...any) docstore.QueryOptions {
//	            return model.PrefixRange("band_" + args[0].(string))
//	        }},
//	    },
//	})
//
// # Ids
//
// The zero [IDGenerator] produces the model prefix followed by the current
// epoch-millisecond timestamp. [Segments] slugs each returned segment with
// [Slug] and joins them with '_'; [Direct] uses its result verbatim. A record
// that already carries an _id keeps it.
//
// # Asynchronous calls
//
// Every operation has an Async variant returning a [Future]. Results can be
// awaited with [Future.Await] or observed with [Future.Then]; both see the
// same outcome.
package model
