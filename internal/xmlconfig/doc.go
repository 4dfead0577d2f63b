// Package xmlconfig parses the XML command document into the
// format-agnostic config.Model.
//
// The document has one named section (TfsUtils by default), either as the
// root element or as a child of <configuration>:
//
//	<configuration>
//	  <TfsUtils>
//	    <commands ServerUri="http://tfs:8080/tfs/DefaultCollection">
//	      <command Type="github.com/.../commentsearch.Searcher" Alias="find">
//	        <properties Type="github.com/.../commentsearch.Settings">
//	          <ProjectPath>$/product1/branch1</ProjectPath>
//	          <ExcludeOwners><string>build</string><string>robot</string></ExcludeOwners>
//	        </properties>
//	      </command>
//	    </commands>
//	  </TfsUtils>
//	</configuration>
//
// Every child of <properties> becomes one raw property. A child holding only
// text yields its unescaped text; a child holding elements yields its inner
// markup verbatim, left for the converters to interpret. Self-closing
// children are skipped.
package xmlconfig
