// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cli

import (
	"errors"
	"io/fs"

	"code.hybscloud.com/dsel"
	"code.hybscloud.com/dsel/program"
)

// loadProgram compiles the program file at path. Unreadable files are
// command errors; files that do not compile are failures.
func loadProgram(f *OutputFormatter, path string, sym *dsel.Gensym) (*program.File, error) {
	if path == "" {
		return nil, f.Fail(ExitCommandError, ErrCodeNotFound, errors.New("--program is required"))
	}
	file, err := program.Load(path, sym)
	if err != nil {
		if isPathError(err) {
			return nil, f.Fail(ExitCommandError, ErrCodeNotFound, err)
		}
		return nil, f.Fail(ExitFailure, ErrCodeProgram, err)
	}
	return file, nil
}

// loadData decodes the data file at path. An empty path is a nil datum.
func loadData(f *OutputFormatter, path string) (any, error) {
	if path == "" {
		return nil, nil
	}
	datum, err := program.LoadData(path)
	if err != nil {
		if isPathError(err) {
			return nil, f.Fail(ExitCommandError, ErrCodeNotFound, err)
		}
		return nil, f.Fail(ExitFailure, ErrCodeData, err)
	}
	return datum, nil
}

func isPathError(err error) bool {
	var pe *fs.PathError
	return errors.As(err, &pe)
}
