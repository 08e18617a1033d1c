// Package fileutil provides the filesystem scanning used while crawling module trees.
//
// # Main Components
//
// ScanDirectory walks a module-path directory and returns candidate modulefiles:
//   - Hidden directories (".git", ".snapshot") are never descended
//   - Hidden files (".version", ".modulerc") can be skipped with SkipHiddenFiles
//   - Symlinks to regular files are kept, dangling ones are reported
//   - Output is absolute and sorted so crawls are deterministic
//   - Unreadable subdirectories are collected as non-fatal errors
//
// ScanExecutables lists the commands a PATH directory provides, i.e. the names of
// regular files (or symlinks to them) that the current user may execute.
//
// SplitPathList breaks a colon-separated search path into its non-empty entries.
//
// # Usage Examples
//
// Listing candidate modulefiles under a root:
//
//	result, err := fileutil.ScanDirectory("/opt/modulefiles", fileutil.ScanOptions{
//	    Recursive:       true,
//	    SkipHiddenFiles: true,
//	})
//	if err != nil {
//	    return err
//	}
//	for _, err := range result.Errors {
//	    log.Printf("skipped: %v", err)
//	}
//
// Listing the commands of a bin directory:
//
//	names, err := fileutil.ScanExecutables("/opt/gcc/9.2.0/bin")
//
// # Error Tolerance
//
// Only a root that cannot be accessed at all is a fatal error. Everything below the
// root is best effort: failures are recorded in ScanResult.Errors and the walk continues.
package fileutil
