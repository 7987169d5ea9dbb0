// Package collection provides typed views of single keys in the store. Each
// facade only builds commands and interprets replies; connections come from
// any conn.IProvider (a client.Client, a conn.Pool or a single conn.Direct).
//
// Facades:
//
//   - Blob: a byte string (SET, GET, STRLEN)
//   - Cell[T]: one value of type T encoded with a serializer.ISerializer
//   - List[T]: RPUSH, LLEN, LINDEX and LRANGE over encoded elements
//   - Map[F, V]: a hash (HSET, HGET, HDEL, HEXISTS, HLEN) iterated with HSCAN
//   - BitVec: SETBIT, GETBIT, BITCOUNT and BITPOS over a byte string
//
// Every facade has Clear, which deletes the key. A reply of an unexpected
// shape is returned as a common.ErrCOther error.
//
// Usage:
//
//	users := collection.NewMap[string, User](c, "users", serializer.NewJSONSerializer())
//	if err := users.Insert("alice", User{Age: 30}); err != nil {
//		return err
//	}
//	err := users.Iter(func(name string, u User) error {
//		fmt.Println(name, u.Age)
//		return nil
//	})
package collection
