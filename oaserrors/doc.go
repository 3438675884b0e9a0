// Package oaserrors provides structured error types for oassync.
//
// Import path: github.com/erraggy/oassync/oaserrors
//
// Errors crossing the tool boundary fall into six categories. Each category
// has a struct type for [errors.As] and a sentinel for [errors.Is]:
//
//   - [NetworkError] / [ErrNetwork]: connection failures, timeouts, non-success status
//   - [ParseError] / [ErrParse]: malformed JSON/YAML, unsupported version, failed structural validation
//   - [FilesystemError] / [ErrFilesystem]: missing files, permission denied
//   - [CodegenError] / [ErrCodegen]: unrecoverable generation failures
//   - [ConfigError] / [ErrConfig]: unknown targets, invalid style options, missing inputs
//   - [CacheError] / [ErrCache]: unreadable or unwritable cache files
//
// Reason-level sentinels ([ErrTimeout], [ErrNotFound], [ErrPermission]) match
// only the errors carrying that reason.
//
// # Usage
//
//	res, err := ld.Load(ctx, loader.Request{Source: "api.yaml", UseCache: true})
//	if err != nil {
//	    var pe *oaserrors.ParseError
//	    if errors.As(err, &pe) {
//	        for _, v := range pe.Violations {
//	            fmt.Println(v)
//	        }
//	    }
//	    fmt.Println(oaserrors.Category(err))
//	}
package oaserrors
