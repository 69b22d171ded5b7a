/*
Package status owns every write replacerc makes to the filesystem.

	+-------------+        +-------------+
	|  Operation  | -----> |   Manager   |
	| (Transform) |        |  (Rewrite)  |
	+-------------+        +------+------+
	                              |
	                +-------------+-------------+
	                |                           |
	         +------+------+             +------+------+
	         |   Atomic    |             |  In-place   |
	         | temp+rename |             | seek+trunc  |
	         +-------------+             +-------------+

🎯 Purpose:
- Reads a whole file, hands it to a transform, writes the result back
- Reports whether the content actually changed

✍️ Write modes:
- WriteAtomic (default): the new content goes to a hidden temp file in the
  same directory with the original permissions, is synced, then renamed
  over the original. A failed write leaves the original untouched.
- WriteInPlace: open read/write, read, seek to 0, write, truncate, close.
  Matches a plain editor save but can leave a half-written file on failure.

Every rewrite writes, even when the transform returns identical bytes.

🔍 Example:

	mgr := status.New(".", status.WriteAtomic)
	info, err := mgr.Rewrite(ctx, "src/main.cpp", func(ctx context.Context, b []byte) ([]byte, error) {
		return bytes.ReplaceAll(b, []byte("foo"), []byte("bar")), nil
	})
*/
package status
