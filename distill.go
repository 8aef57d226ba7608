// Package distill recovers clean article text from noisy, crawler-generated
// page markdown. A page is either fetched from a structured article source,
// or rendered by a browser, converted to markdown, and reduced to its article
// blocks with a content-density heuristic and a long-paragraph fallback.
//
// This package contains domain types and interfaces. Implementations live in
// subdirectories named after their primary dependency (e.g., rod/, msn/,
// sqlite/) or after the job they do (density/, strategy/, crawl/).
package distill
