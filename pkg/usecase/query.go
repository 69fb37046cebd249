package usecase

import (
	"context"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/arcsight-connector/pkg/service/arcsight"
)

const (
	DefaultQueryType  = "all"
	DefaultQueryRange = "0-10"
)

type QueryUseCase struct {
	arcsight arcsight.Service
}

func NewQueryUseCase(svc arcsight.Service) *QueryUseCase {
	return &QueryUseCase{arcsight: svc}
}

// ParseRange parses "<min>-<max>" with non-negative integers and min <= max
func ParseRange(s string) (int, int, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return 0, 0, goerr.Wrap(ErrInvalidRange,
			"unable to parse the range, please specify the range as min_offset-max_offset",
			goerr.V("range", s))
	}

	lo, errLo := strconv.Atoi(strings.TrimSpace(parts[0]))
	hi, errHi := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errLo != nil || errHi != nil {
		return 0, 0, goerr.Wrap(ErrInvalidRange,
			"unable to parse the range, please specify the range as min_offset-max_offset",
			goerr.V("range", s))
	}

	if lo < 0 || hi < 0 {
		return 0, 0, goerr.Wrap(ErrInvalidRange, "invalid min or max offset value specified in range", goerr.V("range", s))
	}
	if lo > hi {
		return 0, 0, goerr.Wrap(ErrInvalidRange, "invalid range value, min_offset greater than max_offset", goerr.V("range", s))
	}

	return lo, hi, nil
}

// BuildQuery prefixes query with a type filter unless queryType is "all"
func BuildQuery(query, queryType string) string {
	queryType = strings.ToLower(strings.TrimSpace(queryType))
	if queryType == "" || queryType == DefaultQueryType {
		return query
	}
	return "type:" + queryType + " and " + query
}

// RunQuery runs a manager search for the hits between the offsets of resultRange
func (uc *QueryUseCase) RunQuery(ctx context.Context, query, queryType, resultRange string) (*arcsight.SearchResult, error) {
	if query == "" {
		return nil, goerr.Wrap(ErrMissingParameter, "query is required", goerr.V(ParameterKey, "query"))
	}
	if resultRange == "" {
		resultRange = DefaultQueryRange
	}

	lo, hi, err := ParseRange(resultRange)
	if err != nil {
		return nil, err
	}

	if err := uc.arcsight.Login(ctx); err != nil {
		return nil, goerr.Wrap(err, "unable to login")
	}

	queryStr := BuildQuery(query, queryType)

	result, err := uc.arcsight.Search(ctx, queryStr, lo, hi-lo+1)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to run query", goerr.V("query", queryStr))
	}

	return result, nil
}
