/*
Package config loads replacerc settings.

	            +-------------+
	            |   Config    |
	            | (Defaults)  |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+-----+ +----+----+ +-----+-----+
	|   YAML    | |  JSON   | |    HCL    |
	|  Parser   | | Parser  | |  Parser   |
	+-----------+ +---------+ +-----------+

🎯 Purpose:
- Provides the file selection (patterns, excluded prefixes, root)
- Selects the write mode (atomic or in place)
- Configures how blocks end and how the loop is quit

With no file at all the defaults match the classic behaviour: every *.cpp and
*.h file below the working directory, except paths starting with Toolchain or
Build, rewritten atomically.

🔄 Flow:
1. Discover looks for .replacerc.{yaml,yml,json,hcl} in a directory
2. The parser registered for the extension decodes a FileConfig
3. Present fields override Default()
4. Validate normalizes the root and rejects unusable settings

🔍 Example (.replacerc.hcl):

	patterns         = concat(default_patterns, ["*.cc", "*.mm"])
	exclude_prefixes = ["Toolchain", "Build", "Ports"]
	atomic           = false
	end_marker       = "."
*/
package config
