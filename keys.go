package grizzly

import "fmt"

// Key layout:
//
//	internal.collections.<database>.<collection>  -> collection config document
//	<database>.<collection>.doc.<id>              -> document
//	<database>.<collection>.index.<name>.<value>.<id> -> document id
//
// Everything under internal. is configuration, everything else is data.

func collectionConfigKey(database, collection string) []byte {
	return []byte(fmt.Sprintf("internal.collections.%s.%s", database, collection))
}

func collectionConfigPrefix(database string) []byte {
	return []byte(fmt.Sprintf("internal.collections.%s.", database))
}

func documentKey(database, collection, id string) []byte {
	return []byte(fmt.Sprintf("%s.%s.doc.%s", database, collection, id))
}

func documentPrefix(database, collection string) []byte {
	return []byte(fmt.Sprintf("%s.%s.doc.", database, collection))
}

// indexKey holds encoded field values, so it is assembled as raw bytes
func indexKey(database, collection, index string, value []byte, id string) []byte {
	key := []byte(fmt.Sprintf("%s.%s.index.%s.", database, collection, index))
	key = append(key, value...)
	key = append(key, '.')
	key = append(key, id...)
	return key
}

func indexPrefix(database, collection, index string) []byte {
	return []byte(fmt.Sprintf("%s.%s.index.%s.", database, collection, index))
}

func collectionPrefix(database, collection string) []byte {
	return []byte(fmt.Sprintf("%s.%s.", database, collection))
}
