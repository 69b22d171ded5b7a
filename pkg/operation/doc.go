/*
Package operation applies one replacement pair across a collected file set.

	+-------------+     +-------------+     +-------------+
	|   FileSet   | --> |  Operation  | --> |   status    |
	|  (collect)  |     |  (text)     |     |  (Rewrite)  |
	+-------------+     +-------------+     +-------------+

🔄 Flow:
1. Iterate the FileSet in sorted order
2. Read each file through status.Manager
3. Replace every literal occurrence of Before with After
4. Write the content back, even when nothing changed
5. Stop at the first failure and return it with the offending path

The runner detaches the operation from cancellation: an interrupt that
arrives while a pass is running is only seen once the pass has finished.

🔍 Example:

	op, err := operation.NewReplaceOperation(operation.Options{Files: files}, operation.Pair{Before: "foo", After: "bar"})
	if err != nil {
		return err
	}
	if err := operation.NewRunner(zerolog.Ctx(ctx)).Run(ctx, op); err != nil {
		return err
	}
	summary := op.Summary()
*/
package operation
