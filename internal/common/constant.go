package common

// AuthorizationHeaderName is the HTTP header carrying the bearer token.
const AuthorizationHeaderName = "Authorization"

// BearerScheme prefixes the token in the Authorization header.
const BearerScheme = "Bearer"

// UploadsPathPrefix is the URL prefix under which stored files are served.
const UploadsPathPrefix = "/uploads/"
